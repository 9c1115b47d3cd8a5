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
 *  folder_backing.go - Carpeta amfitriona com a imatge: una imatge ja
 *                      extreta en un directori es projecta tal qual.
 */

package vfs

import (
  "github.com/adriagipas/ctrvfs/utils"
)


/*********/
/* TIPUS */
/*********/

type folderBacking struct {

  fs   utils.HostFS
  root string

}


/************/
/* FUNCIONS */
/************/

func newFolderBacking( fs utils.HostFS, root string ) *folderBacking {
  return &folderBacking{
    fs: fs,
    root: root,
  }
} // end newFolderBacking


// Baixa per la carpeta sense distingir majúscules ASCII. Torna el
// path real i si és un directori.
func walkHost( fs utils.HostFS, root string, segs []string ) (string,
  bool,bool) {

  real:= root
  for i,seg:= range segs {

    dirs,err:= fs.ListDirectories ( real )
    if err != nil { return "",false,false }
    found:= ""
    is_dir:= false
    for _,d:= range dirs {
      if foldEqual ( d, seg ) { found= d; is_dir= true; break }
    }
    if found == "" {
      files,err:= fs.ListFiles ( real )
      if err != nil { return "",false,false }
      for _,f:= range files {
        if foldEqual ( f, seg ) { found= f; break }
      }
    }
    if found == "" { return "",false,false }
    real= real + "/" + found
    if !is_dir {
      if i != len(segs)-1 { return "",false,false }
      return real,false,true
    }

  }

  return real,true,true

} // end walkHost


func (self *folderBacking) resolve( segs []string ) (*node,error) {

  real,is_dir,found:= walkHost ( self.fs, self.root, segs )
  if !found { return nil,notFound ( segs ) }

  if !is_dir {
    var acc utils.Accessor
    var err error
    if opener,ok:= self.fs.(utils.AccessorOpener); ok {
      acc,err= opener.OpenAccessor ( real )
    } else {
      var data []byte
      data,err= self.fs.ReadAllBytes ( real )
      if err == nil {
        acc= utils.NewMemAccessor ( data )
      }
    }
    if err != nil { return nil,err }
    return newFileNode ( acc ),nil
  }

  var ret dirListing
  var err error
  if ret.dirs,err= self.fs.ListDirectories ( real ); err != nil {
    return nil,err
  }
  if ret.files,err= self.fs.ListFiles ( real ); err != nil {
    return nil,err
  }

  return newDirNode ( ret ),nil

} // end folderBacking.resolve


func (self *folderBacking) mkdirAllowed( segs []string ) bool {
  return len(segs) > 0
} // end folderBacking.mkdirAllowed
