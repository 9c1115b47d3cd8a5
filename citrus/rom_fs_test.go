/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  rom_fs_test.go
 */

package citrus

import (
  "bytes"
  "testing"

  "github.com/adriagipas/ctrvfs/utils"
  "github.com/stretchr/testify/require"
)

func testRomFSTree() *RomFS_BuildDir {
  return &RomFS_BuildDir{
    Name: "",
    Dirs: []*RomFS_BuildDir{
      {
        Name: "models",
        Files: []*RomFS_BuildFile{
          {Name: "mario.bcmdl", Data: bytes.Repeat ( []byte{5}, 100 )},
        },
      },
      {
        Name: "sound",
        Dirs: []*RomFS_BuildDir{
          {Name: "stream", Files: []*RomFS_BuildFile{
            {Name: "bgm01.bcstm", Data: bytes.Repeat ( []byte{9}, 33 )},
          }},
        },
      },
    },
    Files: []*RomFS_BuildFile{
      {Name: "config.bin", Data: []byte("config")},
      {Name: "Readme.txt", Data: []byte("hola")},
    },
  }
} // end testRomFSTree


func TestRomFSBuildAndParse( t *testing.T ) {

  data,err:= BuildRomFS ( testRomFSTree () )
  require.NoError ( t, err )
  require.True ( t, ProbeRomFS ( utils.NewMemAccessor ( data ) ) )

  romfs,err:= NewRomFS ( utils.NewMemAccessor ( data ) )
  require.NoError ( t, err )

  root:= romfs.Root
  require.Equal ( t, "", root.Name )
  require.Len ( t, root.Dirs, 2 )
  require.Len ( t, root.Files, 2 )

  // Germans ordenats per unitats UTF-16: les majúscules van abans.
  require.Equal ( t, "Readme.txt", root.Files[0].Name )
  require.Equal ( t, "config.bin", root.Files[1].Name )
  require.Equal ( t, "models", root.Dirs[0].Name )
  require.Equal ( t, "sound", root.Dirs[1].Name )

  // Contingut d'un fitxer anidat.
  stream:= root.LookupDir ( "SOUND" ).LookupDir ( "stream" )
  require.NotNil ( t, stream )
  file:= stream.LookupFile ( "BGM01.BCSTM" )
  require.NotNil ( t, file )
  require.Equal ( t, int64(33), file.Size )
  acc,err:= file.Open ()
  require.NoError ( t, err )
  got:= make([]byte,acc.Len ())
  require.NoError ( t, acc.Read ( got, 0 ) )
  require.Equal ( t, bytes.Repeat ( []byte{9}, 33 ), got )

} // end TestRomFSBuildAndParse


// Reconstruir l'arbre llegit ha de tornar exactament els mateixos
// bytes: la serialització és canònica.
func TestRomFSRoundtrip( t *testing.T ) {

  orig,err:= BuildRomFS ( testRomFSTree () )
  require.NoError ( t, err )

  romfs,err:= NewRomFS ( utils.NewMemAccessor ( orig ) )
  require.NoError ( t, err )

  var rebuildTree func(dir *RomFS_Directory) *RomFS_BuildDir
  rebuildTree= func(dir *RomFS_Directory) *RomFS_BuildDir {
    ret:= &RomFS_BuildDir{ Name: dir.Name }
    for _,d:= range dir.Dirs {
      ret.Dirs= append(ret.Dirs,rebuildTree ( d ))
    }
    for _,f:= range dir.Files {
      acc,err:= f.Open ()
      require.NoError ( t, err )
      data:= make([]byte,acc.Len ())
      require.NoError ( t, acc.Read ( data, 0 ) )
      ret.Files= append(ret.Files,&RomFS_BuildFile{
        Name: f.Name,
        Data: data,
      })
    }
    return ret
  }
  rebuilt,err:= BuildRomFS ( rebuildTree ( romfs.Root ) )
  require.NoError ( t, err )
  require.Equal ( t, orig, rebuilt )

} // end TestRomFSRoundtrip


func TestRomFSDuplicatedSibling( t *testing.T ) {

  _,err:= BuildRomFS ( &RomFS_BuildDir{
    Files: []*RomFS_BuildFile{
      {Name: "a.bin", Data: nil},
      {Name: "a.bin", Data: nil},
    },
  })
  require.ErrorIs ( t, err, utils.ErrInvalidTree )

} // end TestRomFSDuplicatedSibling


func TestLargestPrimeLE( t *testing.T ) {

  require.Equal ( t, 3, largestPrimeLE ( 3 ) )
  require.Equal ( t, 3, largestPrimeLE ( 4 ) )
  require.Equal ( t, 5, largestPrimeLE ( 6 ) )
  require.Equal ( t, 7, largestPrimeLE ( 10 ) )
  require.Equal ( t, 97, largestPrimeLE ( 100 ) )

} // end TestLargestPrimeLE


func TestRomFSNameHash( t *testing.T ) {

  // Valor de referència calculat a mà: parent=3, nom "a" (0x61).
  // hash= (3>>5) ^ (3<<27) ^ 0x61
  require.Equal ( t, uint32(0x18000061), romFSNameHash ( 3,
    utf16Units ( "a" ) ) )

} // end TestRomFSNameHash
