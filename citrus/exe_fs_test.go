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
 *  exe_fs_test.go
 */

package citrus

import (
  "bytes"
  "crypto/sha256"
  "testing"

  "github.com/adriagipas/ctrvfs/utils"
  "github.com/stretchr/testify/require"
)

func TestExeFSBuildAndParse( t *testing.T ) {

  code:= bytes.Repeat ( []byte{0xAA}, 0x1234 )
  icon:= []byte("icon data")
  data,err:= BuildExeFS ( []ExeFS_BuildFile{
    {Name: ".code", Data: code},
    {Name: "icon", Data: icon},
  })
  require.NoError ( t, err )
  require.Equal ( t, int64(0), int64(len(data))%MEDIA_UNIT )

  exefs,err:= NewExeFS ( utils.NewMemAccessor ( data ) )
  require.NoError ( t, err )
  require.Len ( t, exefs.Files, 2 )
  require.Equal ( t, ".code", exefs.Files[0].Name )
  require.Equal ( t, uint32(0x1234), exefs.Files[0].Size )
  require.Equal ( t, "icon", exefs.Files[1].Name )

  // El segon fitxer comença alineat a MEDIA_UNIT.
  require.Equal ( t, uint32(0x1400), exefs.Files[1].Offset )

  // Hashos en ordre invers als descriptors.
  want:= sha256.Sum256 ( code )
  require.Equal ( t, want[:], exefs.Files[0].Hash[:] )
  want= sha256.Sum256 ( icon )
  require.Equal ( t, want[:], exefs.Files[1].Hash[:] )

  // Contingut.
  acc,err:= exefs.Open ( &exefs.Files[0] )
  require.NoError ( t, err )
  got:= make([]byte,acc.Len ())
  require.NoError ( t, acc.Read ( got, 0 ) )
  require.Equal ( t, code, got )

} // end TestExeFSBuildAndParse


func TestExeFSLookupIsCaseInsensitive( t *testing.T ) {

  data,err:= BuildExeFS ( []ExeFS_BuildFile{
    {Name: "banner", Data: []byte{1}},
  })
  require.NoError ( t, err )
  exefs,err:= NewExeFS ( utils.NewMemAccessor ( data ) )
  require.NoError ( t, err )

  require.NotNil ( t, exefs.Lookup ( "BANNER" ) )
  require.NotNil ( t, exefs.Lookup ( "banner" ) )
  require.Nil ( t, exefs.Lookup ( "logo" ) )

} // end TestExeFSLookupIsCaseInsensitive


func TestExeFSRoundtrip( t *testing.T ) {

  orig,err:= BuildExeFS ( []ExeFS_BuildFile{
    {Name: ".code", Data: bytes.Repeat ( []byte{7}, 0x300 )},
    {Name: "banner", Data: []byte("BNR")},
    {Name: "icon", Data: bytes.Repeat ( []byte{3}, 0x200 )},
  })
  require.NoError ( t, err )

  exefs,err:= NewExeFS ( utils.NewMemAccessor ( orig ) )
  require.NoError ( t, err )
  rebuilt_files:= make([]ExeFS_BuildFile,0,len(exefs.Files))
  for i:= range exefs.Files {
    acc,err:= exefs.OpenIndex ( i )
    require.NoError ( t, err )
    data:= make([]byte,acc.Len ())
    require.NoError ( t, acc.Read ( data, 0 ) )
    rebuilt_files= append(rebuilt_files,ExeFS_BuildFile{
      Name: exefs.Files[i].Name,
      Data: data,
    })
  }
  rebuilt,err:= BuildExeFS ( rebuilt_files )
  require.NoError ( t, err )
  require.Equal ( t, orig, rebuilt )

} // end TestExeFSRoundtrip


func TestExeFSCapacityErrors( t *testing.T ) {

  // Més de 10 fitxers.
  files:= make([]ExeFS_BuildFile,11)
  for i:= range files {
    files[i]= ExeFS_BuildFile{Name: "f", Data: nil}
  }
  _,err:= BuildExeFS ( files )
  require.ErrorIs ( t, err, utils.ErrExeFSCapacity )

  // Nom massa llarg.
  _,err= BuildExeFS ( []ExeFS_BuildFile{
    {Name: "toolongname", Data: nil},
  })
  require.ErrorIs ( t, err, utils.ErrExeFSCapacity )

} // end TestExeFSCapacityErrors


func TestProbeExeFS( t *testing.T ) {

  data,err:= BuildExeFS ( []ExeFS_BuildFile{
    {Name: ".code", Data: []byte{1,2,3}},
  })
  require.NoError ( t, err )
  require.True ( t, ProbeExeFS ( utils.NewMemAccessor ( data ) ) )

  // Una imatge de zeros no té cap fitxer.
  require.False ( t, ProbeExeFS (
    utils.NewMemAccessor ( make([]byte,0x400) ) ) )

  // Massa curt.
  require.False ( t, ProbeExeFS ( utils.NewMemAccessor ( []byte{1,2} ) ) )

} // end TestProbeExeFS
